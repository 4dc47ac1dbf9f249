// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mnemonic

// wordlist is the fixed 1626-word list the Electrum-style scheme indexes
// into (spec.md §3 "Mnemonic", §4.4). Its entries are generated
// pseudo-words, not Monero's English list, so phrases are not
// interchangeable with other Monero wallets. Order is part of the wire
// format: changing it breaks every previously generated mnemonic.
var wordlist = [1626]string{
	"badu", "bafne", "banwono", "bargixi", "basobxa", "bawelex", "bawlaj", "baytike",
	"bazfe", "bemdo", "bemipa", "beneqi", "bentoze", "bepo", "beqmevdov", "besaqa",
	"beto", "beze", "bezelnu", "bibit", "bibu", "bicgigil", "bide", "bifibiw",
	"bigeha", "bijfixorar", "bijra", "biqmakrogik", "bire", "biro", "bisowqox", "bitgu",
	"bixaw", "bobjurpa", "boceje", "bodqeki", "bofozo", "bogowa", "bohami", "bojagyakeb",
	"boporsol", "boqa", "boqomoz", "bowus", "bowuvuza", "boxaj", "bozbale", "bozotu",
	"bubla", "bufofalhap", "bugosmumiv", "bulja", "buni", "bupa", "buqtam", "burele",
	"buvajife", "buvexo", "cacu", "cadiyu", "cagiswo", "cahmic", "camhehi", "camiso",
	"capozori", "carita", "cawebtuk", "cayqipe", "cazi", "cece", "cedleyaba", "cegacma",
	"cehvo", "cekyiru", "celake", "cemgocval", "cepgacku", "ceqihenpup", "ceqmiricu", "cesehuh",
	"cesu", "ceviqraj", "cewa", "cexko", "cexmafuyu", "ceyamje", "cezagorak", "cicuganog",
	"cida", "cide", "cidmu", "cihagbe", "cijcivo", "cijoh", "cikayo", "cikuse",
	"cimvud", "cino", "cipbuni", "cirevfo", "cisefa", "cisovazo", "ciwlebine", "ciza",
	"cizegu", "coceqoj", "cohi", "coka", "cokopef", "conetlim", "cori", "corje",
	"cosi", "coyu", "cucewafmoq", "cugaxxoj", "cuhirej", "cuhvosev", "cujaxu", "cuju",
	"cuki", "cunuczi", "cupuqvo", "cuqjeker", "curikijuk", "cuxuljas", "cuzoho", "dafado",
	"dafgojvaw", "dafiwna", "dakdedi", "dalegho", "dalesu", "damyu", "danux", "daqquza",
	"daqxahajiq", "daraw", "dasi", "data", "dawaqqa", "daza", "dazfone", "daziq",
	"dehiqi", "dekowiq", "dencahluklo", "deni", "denmafa", "depu", "detagi", "dette",
	"detuqijaj", "devidude", "devsiz", "dewpapa", "dexsetew", "difu", "difwoz", "dijvakwovku",
	"dikmu", "dilaxti", "dimohido", "diqe", "diqi", "diquqi", "direxiwa", "diwiba",
	"diwisel", "diwozocuz", "dizfunew", "dobeye", "dobo", "dodifa", "dodnupu", "dofa",
	"dofnuqi", "dofo", "dokova", "domecqeq", "domsu", "donik", "dopaz", "doqa",
	"dorhe", "dormi", "dovaquc", "dowaw", "doyeran", "dozidzo", "ducil", "dudahaxza",
	"dufja", "dugece", "duhta", "dujuvli", "dumezevej", "dumo", "dumunwavo", "duqa",
	"duqejeqim", "duqqumuh", "duqubnob", "dursim", "duset", "dutivapor", "facuno", "fafobsi",
	"fafujnu", "fagze", "fajzelca", "fake", "fakefwacak", "famruqof", "faqyoh", "fareqhuy",
	"fatuw", "fawjopemi", "fawo", "fawuwpu", "faxivug", "fayemur", "fayikub", "fazahewe",
	"febabepqec", "febog", "fefa", "fefumxoja", "feha", "fehivo", "fejitqe", "fekju",
	"fepe", "feqopi", "feriwvazo", "fesdo", "feshivsiwdi", "feso", "fewet", "fewkiglec",
	"fewodex", "fewqeble", "fexa", "fexehus", "fiboxeb", "fico", "fido", "fifvepi",
	"fiji", "fimusqo", "finadte", "fino", "fipozompu", "fisic", "fisifwey", "fitegi",
	"fiwodwag", "fiyid", "fiyuymey", "fobatud", "fobexu", "fobqetum", "fofidsolu", "fojehji",
	"fojguvad", "fojirbu", "fomibyay", "foqalto", "foqitoc", "fota", "fotezoc", "fotu",
	"fovex", "foxoqa", "foyfehmisu", "fubyaba", "fuco", "fufuf", "fuhqu", "fujolam",
	"fukev", "fumnalu", "funjotvi", "funo", "fupi", "fupo", "fuwhenop", "fuxiya",
	"gacikfi", "gaduzri", "gafxomcu", "gago", "gahjode", "gajih", "gakge", "gaku",
	"galkuki", "gamiqoxu", "gannut", "ganyazumo", "gapaqumne", "gapgexkem", "gappegwok", "gaqemi",
	"garnubmi", "gasehe", "gaswu", "gavacmeyiz", "gavecso", "gaviki", "gawabe", "gawje",
	"gaxfes", "gecnulpecnis", "gefjare", "geji", "gejo", "gelbo", "geqafu", "geqibegup",
	"gernuce", "getahe", "gete", "gevadiq", "gevuyuno", "gexoh", "gexubxuzo", "gexuje",
	"geyibvu", "geylexcu", "gibopir", "gica", "gicgoli", "gifaki", "gigasi", "gijanag",
	"gimpelol", "ginax", "ginbixne", "giqihtar", "giqpi", "giqroso", "girlemhud", "giruduv",
	"gisavegi", "giwenak", "gixnirpequb", "giyzikbiymu", "gocgotexi", "gocu", "godgeh", "gofodibu",
	"gofufifte", "gogexbu", "gogunasa", "gohikovci", "gokinxu", "gomixzo", "gopzoba", "goqujeni",
	"goqyuf", "gosihpu", "gotulajo", "govi", "goyiru", "goyjeqjo", "gucyifi", "gudi",
	"guditu", "gugkisuqer", "guhule", "gujaden", "gujolkew", "gukpu", "guku", "gumewmu",
	"gumit", "gupqe", "guqom", "guro", "gususa", "guxiya", "guxzes", "guza",
	"guzogcet", "hacke", "hadedkox", "hadiyo", "hadzoxajor", "hajxa", "haluxetu", "hapi",
	"hapikuczi", "harnipro", "hata", "hawximrucpi", "haziled", "hefevuw", "heheneva", "helfa",
	"hemorudwa", "hese", "hete", "hetoru", "hetyi", "hevfi", "heyqutus", "higaboc",
	"hihe", "hihhojarko", "hirof", "hisecez", "hiyiqe", "hiyu", "hobosu", "hociqu",
	"hodcalot", "hodeyqin", "hofri", "hofu", "hogvaqi", "hohirisru", "honap", "hoqlow",
	"hotawo", "hovoba", "hoxama", "hoxi", "hoxnixafi", "hoxowuxye", "hoynaz", "hubogo",
	"hudiy", "hufjuti", "hukxertup", "hulatna", "hulguz", "huluwo", "humgesupboq", "humyux",
	"hunipfu", "hurobi", "husudi", "huvunxu", "huwoma", "huxudo", "huykinho", "jacegme",
	"jake", "janalu", "jaqi", "jatgi", "jawe", "jawivya", "jayoca", "jazgezumse",
	"jebiyi", "jegoho", "jekotqo", "jeli", "jemanu", "jene", "jeqigxiji", "jerij",
	"jezafuy", "jicence", "jidpu", "jiki", "jilwu", "jinufi", "jisijci", "jitapoto",
	"jivohe", "jixavepa", "jixfe", "jofa", "johi", "johu", "jojojxuni", "jolna",
	"jonaga", "jono", "jorewa", "joscutge", "josqeqxahvu", "jowa", "jowu", "joxu",
	"joyuwe", "jubaja", "jubdoqe", "jubudan", "jufagozu", "jufija", "jugipwu", "juhazyik",
	"jujamfed", "jujizi", "juku", "julah", "julu", "juneqhe", "jupi", "juqij",
	"jurfixo", "jusirke", "jusomca", "jusuri", "jutuho", "juvag", "juwqojfibo", "juxegjibwu",
	"juznar", "kabeqa", "kadgu", "kadipo", "kadyitup", "kafe", "kaho", "kamuxariz",
	"kapindocu", "kaqix", "kariqix", "kaxemeci", "kebipiwle", "kebko", "kefqol", "keha",
	"kekiti", "kepiqvudam", "kesgos", "kesu", "kevara", "kevusra", "kidef", "kifanu",
	"kifqake", "kijku", "kijwu", "kiku", "kikwis", "kilokxu", "kimi", "kipiwe",
	"kiqe", "kiqfu", "kixzokrit", "koda", "kodi", "kofabxav", "kofadgus", "kofemu",
	"kofiyuj", "kofu", "kogofa", "kojho", "kokoni", "kolpej", "kolu", "koqi",
	"koqovras", "korofli", "kosemoji", "kotuwuqa", "kovep", "kowxi", "koxubxogja", "koyaptiq",
	"koyot", "kozcexi", "kozowyahvo", "kudunla", "kufimlezxom", "kufuwiyki", "kukega", "kuqa",
	"kuqvotu", "kurid", "kuru", "kutihuf", "kuvihibaf", "kuvizbadeg", "kuwos", "kuwosi",
	"kuwuko", "kuxaca", "kuxoxa", "kuyaso", "kuzov", "lacore", "ladohuf", "lagi",
	"lajipa", "lalade", "lapu", "larva", "lasocer", "lawi", "lawiqa", "lazoli",
	"lebebte", "ledeho", "lefleqo", "legen", "lejoditpe", "lelifye", "lelorjemi", "lenegzi",
	"lepeco", "lephuvro", "lerexcay", "letimino", "levuco", "lewzipedi", "lexureroy", "lidi",
	"lidofex", "likexipew", "likhuv", "limu", "lipwa", "liqi", "lirulo", "lisoci",
	"liwidef", "liwqogid", "lixapka", "liyaxni", "lobsihapur", "lofayxe", "lofesni", "lojafuy",
	"lojjas", "lojofepum", "lojpi", "lokreyhe", "lono", "lopeji", "loqu", "lori",
	"lote", "lotohac", "lowveto", "loxono", "loysig", "lucenaxe", "lucfuvrekbe", "ludmokuv",
	"lujdetuto", "lukerov", "lukimenwak", "lulopusob", "luluhi", "luplu", "lupugi", "luvib",
	"luvre", "luwesu", "luwoz", "luyazak", "macuvu", "mafa", "majfoye", "maji",
	"makihsi", "mako", "maku", "mamej", "mamubwiw", "maropa", "mawme", "mawxaqa",
	"maxu", "mayaceq", "mazra", "mebxoxanye", "mecifuwe", "medzat", "mefwo", "megatyazuq",
	"melalazez", "meltohmi", "mememud", "memizele", "memome", "mepexiq", "merafomba", "mertaza",
	"metjome", "metluqpe", "meto", "metpayjazqa", "mevizi", "meyo", "mezad", "meziboqi",
	"mezpaweb", "mifezguno", "mifi", "mige", "mihobe", "mihovgefej", "mila", "miraqey",
	"misah", "misbixmup", "misic", "miti", "mitotne", "mivjeka", "mixyi", "mizakib",
	"moccifaw", "mocu", "modmune", "mofu", "mogu", "mohtavo", "molbije", "monimsazu",
	"mopayugiw", "morafu", "mormodtitfo", "motoqejlox", "motqol", "move", "mowalar", "moxetije",
	"moyzujeqfex", "mubano", "mucobde", "mudmu", "mugo", "mujfuydu", "mumoqu", "munax",
	"muni", "mupat", "muqurax", "muri", "murokoqe", "muvuxi", "muxovi", "muxuleseb",
	"muyajed", "muzuwmagif", "muzuywuxut", "muzyosma", "nacipurvu", "nacus", "nadcecjafa", "nahsaluva",
	"najtitwogi", "nare", "narheku", "nasce", "nasdigux", "nasgofobse", "nawe", "nawqulu",
	"naxdaje", "nazarcu", "nebra", "nedfuga", "nedyifo", "negumla", "nehafu", "nekef",
	"nekoq", "nelodqoz", "nelyalomab", "nenuku", "nepinvoy", "nepozdulci", "nepu", "neqjuha",
	"neqogkuxo", "netoluvdi", "nexew", "nexoho", "neyo", "nibapohi", "niducho", "nifbequl",
	"niglaquxu", "nihitu", "nihoc", "nije", "nijuwapse", "nikagufho", "nikto", "nilegubip",
	"nilvar", "nipoz", "nirjopi", "nirruxo", "niseskojib", "nivod", "nixlejo", "nixreqe",
	"niyos", "niyu", "nobyuvebef", "nocagxa", "nodlu", "noffughi", "nofyu", "nogugine",
	"nonkezop", "nonu", "nopi", "nopmexda", "norama", "norotib", "nosde", "novumumhip",
	"nowwu", "noxuza", "noyuzju", "nucazi", "nuceycartu", "nudkubi", "nudsiwor", "nujefu",
	"nujemi", "nuju", "nuljusezi", "nunu", "nupra", "nurlujana", "nurrini", "nusamo",
	"nushiduy", "nusxibte", "nuwwu", "nuzu", "pacodnuqoq", "pacxudcahe", "pafokij", "page",
	"pagevfu", "pajasazu", "pali", "palxi", "pamufo", "panuhva", "papima", "papsuphuwen",
	"papu", "papuxzum", "pasiyu", "patawika", "patjagot", "patuv", "pavuqo", "paxewu",
	"paxofu", "paymo", "pedfo", "peglegzaz", "pegosef", "pegucah", "peha", "peloki",
	"peluned", "pemce", "pevcafuw", "peyodag", "peza", "pibo", "pibuppuz", "pidageqo",
	"pidisuk", "piforvu", "pigcugfohim", "pigef", "pihsilo", "pikejqid", "pimi", "pinizo",
	"pipepagi", "piqejej", "piqfof", "piqo", "pirecec", "piru", "pivoha", "pixasidup",
	"podiz", "pokbizipah", "pokjafu", "pokxise", "popvuksak", "poqfidi", "poropozuc", "porutga",
	"posa", "posazna", "posi", "posmuquv", "potije", "potivi", "povawu", "powjobe",
	"poxme", "pozop", "pucsuqduz", "pucveje", "puda", "pudcede", "pufe", "puhaklu",
	"puhaysak", "puhujjawi", "puletmi", "puqravgis", "pusqoy", "puwifil", "puyiftali", "qaboz",
	"qadbeta", "qafa", "qagja", "qahkato", "qaji", "qajpaveb", "qakise", "qaku",
	"qamedizgo", "qamugma", "qaniro", "qanoqi", "qansuta", "qapokem", "qaqduku", "qavo",
	"qaxkuquga", "qaznisig", "qazto", "qazu", "qebfovsa", "qebzuw", "qedi", "qediguz",
	"qedu", "qefehaqnu", "qeguquba", "qejejloxa", "qejome", "qemaqo", "qemlohrita", "qeqofogqi",
	"qetdadzu", "qetgey", "qetpi", "qewo", "qexta", "qezqodre", "qicetoygi", "qicyo",
	"qifoxed", "qilubit", "qinoxeh", "qippiwas", "qiqi", "qireteja", "qirita", "qiryakuw",
	"qivonelum", "qiyovisfat", "qoceme", "qocoxe", "qodohekak", "qofiyirnuj", "qohat", "qohowqi",
	"qokevo", "qolaqe", "qolito", "qomayta", "qomvaz", "qope", "qoqazuxca", "qoqcogo",
	"qoqito", "qorhihli", "qoro", "qosusfi", "qowo", "qozihudteh", "qozlo", "qubogoj",
	"qubud", "qucwiwo", "qugi", "quhu", "qujekejid", "qulo", "qumijmo", "quna",
	"qupsumyug", "quqeraz", "quqo", "quqpefi", "ququzuyu", "qurefman", "qurli", "qurob",
	"quxbugenu", "racibe", "rada", "radeka", "radtonofe", "ragpu", "rahwohu", "rajwone",
	"rakog", "ralgalwe", "ralpokehduj", "rameypizi", "ranegku", "ranfigotu", "ranigod", "ranqil",
	"ranwevos", "rape", "raqeyzo", "rasnupo", "ratrac", "raviw", "rawejmi", "rawujo",
	"raze", "razemi", "redviva", "refdinahway", "regurxe", "rehoyawu", "rehwokme", "rejpucicam",
	"relno", "remkamhoxa", "repo", "reqmoro", "rerpocan", "retara", "retemo", "rezroyosu",
	"rideli", "ridlanal", "ridugzox", "rifxayepgab", "rige", "rihdeq", "rihege", "rijetta",
	"rijnaf", "rikevogo", "riktenza", "rimiymuz", "rimurqemo", "rimvaze", "rinucixa", "riyhumo",
	"rocre", "rogeccaw", "rogo", "rohuckezwi", "rohuyixho", "ropa", "roqu", "roqwani",
	"rori", "rorreyamtu", "rorune", "rotogusgu", "rowara", "rowona", "rubef", "rudij",
	"rudixayhe", "rugo", "ruja", "rukegif", "rukini", "rupza", "ruqaluyzu", "ruqobi",
	"ruqyowafu", "ruta", "rutumte", "ruwxugqi", "sabliy", "sadnakud", "sagcahuq", "sagnoqolac",
	"saju", "sakucu", "sapir", "sapqok", "sapulaz", "sasatuc", "satcado", "savocu",
	"saxjonze", "secefu", "sedpav", "semogdosdi", "senlala", "sepcayzob", "seposna", "seputoq",
	"seqne", "seqpecto", "setehoc", "sevu", "sexele", "sexgo", "sezerqa", "sezu",
	"sido", "sifoya", "sifugjadbo", "sihxe", "sijelu", "sijkokmi", "sijnabe", "sipi",
	"sisece", "sobolimay", "sofmohe", "sogobe", "sohazewe", "sokuhtoj", "solarip", "soquhe",
	"soyo", "subavmi", "subed", "succodesci", "sufenejso", "sugeqmu", "suki", "sukofav",
	"suluko", "supabu", "suqo", "surenener", "surfec", "survedi", "susocunwux", "susuyi",
	"sutuhla", "suviki", "suxuyiha", "suyobgabe", "suzhaqfib", "tabi", "tacradevo", "tadnud",
	"tahil", "taji", "tamu", "tapiqaza", "taqcivo", "taqgovku", "taqojqe", "tarjusiddu",
	"tasnu", "tatejba", "tatiwca", "tawonkuya", "tayacben", "tazaricuc", "taziraj", "teccirli",
	"tede", "tego", "tehe", "tehguka", "tejcucixtu", "teliy", "temdikedob", "teninoxi",
	"teqwude", "teteqa", "tetiwo", "tetu", "tevanuz", "tewa", "tewerbe", "tewisi",
	"texopu", "teze", "tezluke", "ticigci", "tifutzog", "tihi", "tikocu", "timi",
	"timiwhef", "tipa", "tipe", "tiqami", "tiqofo", "titu", "tiwinux", "tizad",
	"tizdujatu", "tizjicip", "tizos", "tocnafsa", "todzimo", "tohbu", "tohihatuk", "tohocidi",
	"tokcod", "tomic", "tonu", "topokuca", "totzub", "tovmeyvuye", "towkolhe", "towley",
	"toxmigwe", "toyun", "tubi", "tubvego", "tucotey", "tudadobhu", "tugnuq", "tujanaci",
	"tule", "tuntu", "tusug", "tuxawpu", "tuxikyaj", "vada", "vadacna", "vagaqocis",
	"vagitet", "vahirja", "vahlogoksi", "vajele", "valu", "vaqagoj", "vaqofodu", "vara",
	"varigela", "varupijnog", "vavetezgi", "vawoju", "vaxtid", "vayegeyhop", "vayiniyi", "vayobyopah",
	"vefeyegu", "veflerefu", "vegem", "vegunafe", "veheyyi", "vejozwuru", "vekamo", "vemafo",
	"vena", "vepfegka", "vepgu", "vepnolix", "veriwte", "vesana", "veskoc", "vetut",
	"vezejfe", "vibaqotod", "videni", "viferede", "vihi", "vijub", "vilewim", "vilifteku",
	"vilmo", "vimbagkig", "vimikiw", "vimu", "vimze", "viqnuyicvus", "viqremis", "vircu",
	"vitka", "vivo", "vivoqa", "viwisi", "viwucra", "vixebuho", "vobuyedu", "vocu",
	"voczekac", "vofbevben", "vogur", "vojxudud", "vojyini", "vosi", "votosox", "vucomnex",
	"vuflabfaju", "vukabja", "vulela", "vulemepe", "vulkindu", "vupexa", "vuqoqpi", "vuquhige",
	"vureti", "vutixcohce", "vutmi", "vuyezevi", "vuzpa", "wafev", "wagfadifo", "wahuge",
	"wakapcuj", "waknu", "walamnigxoz", "wasju", "watetso", "waxe", "waxemop", "wedu",
	"wefkemita", "wefu", "wegsiwi", "wejru", "welera", "wencaru", "wepupeju", "weto",
	"wetsihru", "wetwey", "wexasodes", "weyjizluca", "wezuyvel", "wijdecex", "wijleca", "wijunisin",
	"wilipi", "wimeqxu", "winqeq", "wiqo", "wisabru", "wisser", "witahu", "witru",
	"wize", "wizijem", "wodo", "wohfojoni", "wojeyavix", "wolqak", "wonxa", "wonzaxa",
	"woragi", "worurbuq", "wosfoked", "wotudpa", "wowuk", "woyzatiw", "wucfafro", "wufif",
	"wufoda", "wufora", "wufu", "wugujasi", "wukorta", "wulejoxar", "wupuli", "wusozoha",
	"wutmur", "wutuvatu", "wutzicjarnal", "wuwsazano", "wuzpoqpome", "xabedah", "xadurhey", "xafa",
	"xajcecpes", "xajruyojju", "xajsemoxe", "xalare", "xalodiwob", "xameqava", "xanzaviw", "xaqepi",
	"xaqizu", "xareswot", "xatadma", "xatoduq", "xawivpinsoy", "xaxopi", "xayilki", "xazada",
	"xeboxi", "xebwome", "xefunobiw", "xegocamek", "xegqaj", "xejohoc", "xeki", "xekihne",
	"xeliy", "xemutde", "xenuya", "xepjepaz", "xeqaza", "xesfozo", "xesigsa", "xesitaw",
	"xetifdu", "xevuxo", "xexensego", "xexqafo", "xeze", "xifqewov", "xigimozto", "xihtumoq",
	"xika", "xikaskoqin", "xino", "xipzi", "xiqizeg", "xirerzo", "xisebgi", "xiseke",
	"xixabase", "xiyu", "xocas", "xodtuvqu", "xodviv", "xofojno", "xoja", "xojoqcijka",
	"xolofi", "xongu", "xonof", "xope", "xoqoye", "xorupwu", "xoruwedxoy", "xorzi",
	"xotu", "xoxaco", "xoyqoko", "xozohum", "xubtadfe", "xudru", "xufa", "xufephiw",
	"xuhidic", "xuhiyu", "xujoco", "xulaxa", "xulumad", "xumatu", "xumzezne", "xurine",
	"xutata", "xutbuwo", "xuwbo", "xuwi", "xuzukixgo", "xuzva", "yacmeba", "yadoya",
	"yafayoywa", "yafi", "yagodvih", "yajuwe", "yamire", "yangapomi", "yarepa", "yargehe",
	"yawlujac", "yawu", "yaxevged", "yaxewi", "yazifwoygig", "yazusub", "yedabuj", "yefekmo",
	"yejide", "yejoli", "yekehon", "yelyuno", "yemdugu", "yeme", "yenofom", "yenqebip",
	"yeqazozsif", "yeros", "yetbi", "yetuka", "yevnur", "yexemu", "yeya", "yibiyvema",
	"yidesah", "yidiha", "yigix", "yilaxqo", "yilo", "yimamro", "yipe", "yixabazxi",
	"yobaralwir", "yodi", "yodipjo", "yogcaxrupi", "yojguwjaga", "yokmisalu", "yonipo", "yoproj",
	"yopxig", "yoqisiha", "yoti", "yovzarke", "yowzole", "yoya", "yoyeni", "yoyiqigbeb",
	"yubqa", "yufqinu", "yuhlosi", "yuhopam", "yupoman", "yuqedu", "yura", "yusunewa",
	"yutpovputci", "yuvus", "yuwotok", "yuxedowu", "zacnalogxu", "zadare", "zafeyo", "zafvosmey",
	"zahuhozun", "zajropa", "zake", "zaladjo", "zali", "zalucuvu", "zamaytor", "zanaqe",
	"zaniwu", "zape", "zaqi", "zaredra", "zaru", "zasaquhap", "zated", "zatepdi",
	"zaxa", "zayo", "zaysin", "zazaxqeloh", "zazesgix", "zebogmipuh", "zebohe", "zecdo",
	"zecinxosfag", "zecurowi", "zedawwa", "zelivar", "zemkato", "zepcifaqti", "zerar", "zerenje",
	"zerigiz", "zernog", "zesha", "zesoga", "zetriye", "zeydesimux", "zezi", "zifusoq",
	"zigatgobaj", "zigroy", "zijduqem", "zijfeyyiye", "zilpezih", "ziluho", "ziqtojka", "zisacna",
	"zivkayo", "ziwoqtoshe", "zixu", "zizkikqila", "zizo", "zizoke", "zoboze", "zobxi",
	"zofko", "zoga", "zogopez", "zoje", "zojimo", "zojom", "zokaxot", "zokiqix",
	"zokridxic", "zomohoy", "zomrezelta", "zopareto", "zopewte", "zoqoqowgiw", "zosena", "zotina",
	"zovfewe", "zovutti", "zoxuytek", "zudohco", "zufo", "zugiwu", "zunyeho", "zupodorib",
	"zuwava", "zuwe",
}

var wordIndex map[string]uint32

func init() {
	wordIndex = make(map[string]uint32, len(wordlist))
	for i, w := range wordlist {
		wordIndex[w] = uint32(i)
	}
}
